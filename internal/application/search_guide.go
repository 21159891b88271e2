package application

// SearchGuide serves fixed reference text describing the YouTrack query
// language. It performs no remote calls and holds no state.
type SearchGuide struct{}

// NewSearchGuide creates the guide provider.
func NewSearchGuide() *SearchGuide {
	return &SearchGuide{}
}

// SyntaxGuide returns the query syntax reference.
func (g *SearchGuide) SyntaxGuide() string {
	return searchSyntaxGuide
}

// CommonQueries returns ready-to-use example queries.
func (g *SearchGuide) CommonQueries() string {
	return commonQueries
}

const searchSyntaxGuide = `YouTrack Search Query Syntax Guide
==================================

Basic structure
---------------
A query is a sequence of attribute-value pairs and free text:
    project: DEMO State: Open login failure

Attributes
----------
project: <short name>     Issues of a project (e.g. project: DEMO)
State: <state>            Workflow state (e.g. State: Open, State: {In Progress})
Priority: <priority>      Priority value (e.g. Priority: Critical)
Type: <type>              Issue type (e.g. Type: Bug)
for: <login>              Assignee (for: john.doe, for: me, for: Unassigned)
by: <login>               Reporter (by: jane.roe, by: me)
tag: <tag>                Tagged issues (tag: regression)
#<value>                  Shorthand for single values (#Unresolved, #Bug, #me)

Values with spaces
------------------
Wrap multi-word values in braces:
    State: {To Verify}  Subsystem: {User Interface}

Dates
-----
created: 2024-01-01 .. 2024-12-31     Range of creation dates
updated: 2024-06-01 .. *              Open-ended range
created: Today / Yesterday / {This week}

Sorting
-------
Append "sort by:" with an optional direction:
    project: DEMO sort by: updated desc
    #Unresolved sort by: priority asc

Text search
-----------
Bare words match summary, description and comments:
    project: DEMO login crash
Quote phrases for exact matches:
    "connection timed out"

Combining
---------
All pairs are ANDed. Use commas for alternatives of one attribute:
    State: Open, {In Progress}
`

const commonQueries = `Common YouTrack Queries
=======================

Unresolved issues of a project:
    project: DEMO #Unresolved

My open assignments:
    for: me #Unresolved

Recently updated issues:
    project: DEMO updated: {This week} sort by: updated desc

Critical bugs:
    Type: Bug Priority: Critical #Unresolved

Unassigned issues:
    project: DEMO for: Unassigned #Unresolved

Issues I reported that were resolved this month:
    by: me #Resolved resolved date: {This month}

Issues in verification:
    project: DEMO State: {To Verify}

Issues mentioning a phrase:
    project: DEMO "connection timed out"

Stale issues (no updates for a long time):
    project: DEMO updated: * .. 2024-01-01 #Unresolved
`
