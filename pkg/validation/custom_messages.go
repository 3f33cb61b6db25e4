package validation

// CustomMessage returns per-tag messages for request fields whose generic
// message would read poorly. Field names are the json names of the request.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"username": {
			"required": "username must not be empty",
		},
		"password": {
			"required": "password must not be empty",
			"min":      "password must be at least 6 characters",
			"max":      "password must be at most 100 characters",
		},
		"email_address": {
			"email": "email_address is not a valid email address",
		},
		"ids": {
			"required": "at least one id is required",
			"min":      "at least one id is required",
		},
		"criteria": {
			"required": "criteria must be provided",
		},
		"page_size": {
			"gte": "page_size must not be negative",
		},
		"page_number": {
			"gte": "page_number must not be negative",
		},
	}
	return customValidationMessages[field]
}
