package constants

import (
	"unicode"
)

// Standard Response Field Keys
const (
	ResponseFieldResult  = "result"
	ResponseFieldFault   = "fault"
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldMethods = "methods"
)

// ToSnakeCase converts camelCase or PascalCase names to snake_case column names.
func ToSnakeCase(s string) string {
	var result []rune
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				result = append(result, '_')
			}
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

func BuildResultResponse(result any) map[string]any {
	return map[string]any{
		ResponseFieldResult: result,
	}
}

func BuildFaultResponse(fault any) map[string]any {
	return map[string]any{
		ResponseFieldFault: fault,
	}
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

