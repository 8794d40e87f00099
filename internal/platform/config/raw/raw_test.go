package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("B_")
	cases := map[string]bool{"1": true, "TRUE": true, "yes": true, "0": false, "no": false, "maybe": false}
	for v, want := range cases {
		t.Setenv("B_FLAG", v)
		if got := c.GetBool("FLAG", !want); got != want {
			t.Errorf("GetBool(%q) = %v, want %v", v, got, want)
		}
	}
	if !c.GetBool("UNSET", true) {
		t.Fatalf("unset should return default")
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("I_")
	cases := []struct {
		val  string
		want int
	}{
		{"10", 10},
		{" 7 ", 7},
		{"12x", 3},
		{"-5", 3},
		{"", 3},
	}
	for _, tc := range cases {
		t.Setenv("I_N", tc.val)
		if got := c.GetInt("N", 3); got != tc.want {
			t.Errorf("GetInt(%q) = %d, want %d", tc.val, got, tc.want)
		}
	}
}
