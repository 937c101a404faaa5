package action

import "testing"

func TestNewAssignsDistinctIDs(t *testing.T) {
	a := New(KindDeleteUser, "42", "Somchai")
	b := New(KindDeleteUser, "42", "Somchai")
	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected non-empty instance ids")
	}
	if a.ID == b.ID {
		t.Fatalf("two pending actions for the same target must have distinct ids")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       *Pending
		wantErr bool
	}{
		{"delete user ok", New(KindDeleteUser, "42", "Somchai"), false},
		{"create user without target ok", New(KindCreateUser, "", ""), false},
		{"unknown kind", New(Kind("drop-table"), "1", "x"), true},
		{"destructive without target", New(KindDeleteBranch, "", "HQ"), true},
		{"destructive without summary", New(KindDeleteCategory, "7", ""), true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDestructive(t *testing.T) {
	if !KindDeleteUser.Destructive() || !KindDeleteBranch.Destructive() || !KindDeleteCategory.Destructive() {
		t.Fatalf("delete kinds must be destructive")
	}
	if KindCreateUser.Destructive() || KindUpdateUser.Destructive() {
		t.Fatalf("create/update kinds must not be destructive")
	}
}
