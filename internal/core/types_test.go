package core

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{"pm", RoleProjectManager},
		{"project-manager", RoleProjectManager},
		{"project_manager", RoleProjectManager},
		{"user", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleAdmin.IsAdmin() || !RoleAdmin.CanManageProjects() {
		t.Error("admin permissions wrong")
	}
	if RoleProjectManager.IsAdmin() {
		t.Error("pm should not be admin")
	}
	if !RoleProjectManager.CanManageProjects() {
		t.Error("pm should manage projects")
	}
	if RoleUser.IsAdmin() || RoleUser.CanManageProjects() {
		t.Error("user permissions wrong")
	}
}

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		RoleAdmin:          "admin",
		RoleProjectManager: "pm",
		RoleUser:           "user",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", role, got, want)
		}
	}
}

func TestField(t *testing.T) {
	var unset Field
	if unset.IsSet() {
		t.Error("zero Field should be unset")
	}
	if got := unset.Apply("previous"); got != "previous" {
		t.Errorf("unset Apply = %q, want previous", got)
	}
	if got := unset.Or("default"); got != "default" {
		t.Errorf("unset Or = %q, want default", got)
	}

	set := SetField("new")
	if !set.IsSet() || set.Value() != "new" {
		t.Errorf("SetField = %+v", set)
	}
	if got := set.Apply("previous"); got != "new" {
		t.Errorf("set Apply = %q, want new", got)
	}
	if got := set.Or("default"); got != "new" {
		t.Errorf("set Or = %q, want new", got)
	}
}
