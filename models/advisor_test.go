package models

import "testing"

func TestAdvisorProfileHasFreeSlot(t *testing.T) {
	cases := []struct {
		quota int
		used  int
		want  bool
	}{
		{3, 0, true},
		{3, 2, true},
		{3, 3, false},
		{0, 0, false},
	}

	for _, tc := range cases {
		a := AdvisorProfile{Quota: tc.quota, Used: tc.used}
		if got := a.HasFreeSlot(); got != tc.want {
			t.Errorf("HasFreeSlot() with quota=%d used=%d = %v, want %v", tc.quota, tc.used, got, tc.want)
		}
	}
}

func TestUserFullName(t *testing.T) {
	u := User{UserFname: "Dewi", UserLname: "Lestari"}
	if got := u.FullName(); got != "Dewi Lestari" {
		t.Errorf("FullName() = %q, want %q", got, "Dewi Lestari")
	}

	mononym := User{UserFname: "Sukarno"}
	if got := mononym.FullName(); got != "Sukarno" {
		t.Errorf("FullName() = %q, want %q", got, "Sukarno")
	}
}
