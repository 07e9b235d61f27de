package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadAdminSeeds(t *testing.T) {
	t.Setenv("ADMIN_COUNT", "2")
	t.Setenv("ADMIN_1_ID", "PSTOSHAM01")
	t.Setenv("ADMIN_1_PASS", "pass1")
	t.Setenv("ADMIN_1_STATION", "Tosham Police Station, Bhiwani")
	t.Setenv("ADMIN_2_ID", "PSHISAR01")
	t.Setenv("ADMIN_2_PASS", "pass2")
	t.Setenv("ADMIN_2_STATION", "Hisar Sadar Police Station, Hisar")

	seeds := ReadAdminSeeds()

	assert.Len(t, seeds, 2)
	assert.Equal(t, AdminSeed{
		AdminID:  "PSTOSHAM01",
		Password: "pass1",
		Station:  "Tosham Police Station, Bhiwani",
	}, seeds[0])
	assert.Equal(t, "PSHISAR01", seeds[1].AdminID)
}

func TestReadAdminSeeds_SkipsIncompleteRecords(t *testing.T) {
	t.Setenv("ADMIN_COUNT", "2")
	t.Setenv("ADMIN_1_ID", "PSTOSHAM01")
	t.Setenv("ADMIN_1_PASS", "pass1")
	t.Setenv("ADMIN_1_STATION", "Tosham Police Station, Bhiwani")
	// ADMIN_2 has no password, the whole record must be skipped
	t.Setenv("ADMIN_2_ID", "PSHISAR01")
	t.Setenv("ADMIN_2_STATION", "Hisar Sadar Police Station, Hisar")

	seeds := ReadAdminSeeds()

	assert.Len(t, seeds, 1)
	assert.Equal(t, "PSTOSHAM01", seeds[0].AdminID)
}

func TestReadAdminSeeds_NoCount(t *testing.T) {
	t.Setenv("ADMIN_COUNT", "")
	assert.Empty(t, ReadAdminSeeds())
}

func TestNew_EscalateAfterDefault(t *testing.T) {
	t.Setenv("ESCALATE_AFTER_DAYS", "")
	c := New()
	assert.Equal(t, 7, c.EscalateAfter)

	t.Setenv("ESCALATE_AFTER_DAYS", "14")
	c = New()
	assert.Equal(t, 14, c.EscalateAfter)
}
