package constants

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"name":             "name",
		"resourceKey":      "resource_key",
		"ResourceTypeID":   "resource_type_id",
		"ctime":            "ctime",
		"parentResourceId": "parent_resource_id",
		"MD5":              "md5",
	}

	for in, want := range tests {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
