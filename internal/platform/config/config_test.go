package config

import (
	"testing"
	"time"

	kit "followstats/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("API_")
	if got := c.key("TZ"); got != "CORE_API_TZ" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://localhost/followstats ")
	if got := c.MustString("DBURL"); got != "postgres://localhost/followstats" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_OK", "4000")
	if got := c.MustPort("OK"); got != ":4000" {
		t.Fatalf("MustPort = %q", got)
	}
	t.Setenv("P_BAD", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("BAD") })
}

func TestMayFallbacks(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_FANOUT", "4")
	t.Setenv("M_BROKEN", "four")
	t.Setenv("M_FLAG", "true")

	if got := c.MayInt("FANOUT", 8); got != 4 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BROKEN", 8); got != 8 {
		t.Fatalf("unparsable int should fall back, got %d", got)
	}
	if got := c.MayInt("UNSET", 8); got != 8 {
		t.Fatalf("unset int should fall back, got %d", got)
	}
	if !c.MayBool("FLAG", false) || c.MayBool("UNSET", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayString("UNSET", "pg"); got != "pg" {
		t.Fatalf("MayString = %q", got)
	}
}

func TestMayDuration_SecondsOrUnits(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_TTL", "3600")
	t.Setenv("D_SLOW", "250ms")
	t.Setenv("D_BAD", "soon")

	if got := c.MayDuration("TTL", 0); got != time.Hour {
		t.Fatalf("bare seconds = %v", got)
	}
	if got := c.MayDuration("SLOW", 0); got != 250*time.Millisecond {
		t.Fatalf("unit duration = %v", got)
	}
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("bad duration = %v", got)
	}
}

func TestMayLocation(t *testing.T) {
	c := New().Prefix("L_")
	t.Setenv("L_TZ", "UTC")
	t.Setenv("L_BAD", "Mars/Olympus")

	if got := c.MayLocation("TZ", time.Local); got.String() != "UTC" {
		t.Fatalf("MayLocation = %v", got)
	}
	if got := c.MayLocation("BAD", time.UTC); got != time.UTC {
		t.Fatalf("unknown zone should fall back, got %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("C_")
	t.Setenv("C_ORIGINS", " https://a.example , ,https://b.example ")
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("C_BLANK", " , ")
	if got := c.MayCSV("BLANK", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("blank csv should fall back, got %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	t.Setenv("E_BACKEND", "CH")
	if got := c.MayEnum("BACKEND", "pg", "pg", "ch"); got != "ch" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("UNSET", "pg", "pg", "ch"); got != "pg" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_BAD", "mysql")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "pg", "pg", "ch") })
}
