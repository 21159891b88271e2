package application

import (
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return "", &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a string", name),
		}
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// JSON numbers arrive as float64; both float64 and int are accepted.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return 0, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be an integer", name),
		}
	}
}

// getBoolParam extracts a boolean parameter from the arguments map.
func getBoolParam(args map[string]interface{}, name string, required bool) (bool, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return false, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return false, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a boolean", name),
		}
	}

	return boolValue, nil
}

// getObjectParam extracts an object parameter from the arguments map.
// Returns nil when the parameter is absent and not required.
func getObjectParam(args map[string]interface{}, name string, required bool) (map[string]interface{}, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return nil, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return nil, nil
	}

	objValue, ok := value.(map[string]interface{})
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be an object", name),
		}
	}

	return objValue, nil
}

// optionalBoolParam extracts a boolean parameter, distinguishing "absent"
// from "false". Used by sparse update operations.
func optionalBoolParam(args map[string]interface{}, name string) (*bool, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return nil, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a boolean", name),
		}
	}

	return &boolValue, nil
}

// optionalStringParam extracts a string parameter, distinguishing "absent"
// from the empty string. Used by sparse update operations.
func optionalStringParam(args map[string]interface{}, name string) (*string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return nil, nil
	}

	strValue, ok := value.(string)
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a string", name),
		}
	}

	return &strValue, nil
}
