package versions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/addonhub/devhub/internal/domain"
	"github.com/addonhub/devhub/internal/domain/versions"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		x, y string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1", "1.0", 0},
		{"1.0.0", "1", 0},
		{"1.0", "1.1", -1},
		{"1.10", "1.9", 1},
		{"2.0", "1.99.99", 1},
		{"1.0pre1", "1.0", -1},
		{"1.0a1", "1.0b1", -1},
		{"1.0b1", "1.0b2", -1},
		{"1.0b2", "1.0b10", -1},
		{"1.+", "1.1pre", 0},
		{"1.*", "1.999", 1},
		{"1.0.1", "1.0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.x+"_vs_"+tt.y, func(t *testing.T) {
			assert.Equal(t, tt.want, versions.Compare(tt.x, tt.y))
			assert.Equal(t, -tt.want, versions.Compare(tt.y, tt.x))
		})
	}
}

func stored(hash, version string, seq uint64, approved bool) domain.StoredValidation {
	return domain.StoredValidation{
		FileHash:  hash,
		AddonGUID: "a@b",
		Version:   version,
		Channel:   domain.ChannelListed,
		Approved:  approved,
		Sequence:  seq,
	}
}

func target(hash, version string) versions.Target {
	return versions.Target{FileHash: hash, AddonGUID: "a@b", Version: version, Channel: domain.ChannelListed}
}

func TestFindPrevious_PicksMostRecentOlderApproved(t *testing.T) {
	candidates := []domain.StoredValidation{
		stored("h1", "1.0", 1, true),
		stored("h2", "1.1", 2, true),
		stored("h3", "1.2", 3, false),
		stored("h4", "2.0", 4, true),
	}

	prev, ok := versions.FindPrevious(candidates, target("h5", "1.5"))
	assert.True(t, ok)
	assert.Equal(t, "h2", prev.FileHash)
}

func TestFindPrevious_PrefersSequenceOverVersion(t *testing.T) {
	candidates := []domain.StoredValidation{
		stored("newer-upload", "1.0", 5, true),
		stored("older-upload", "1.1", 2, true),
	}

	prev, ok := versions.FindPrevious(candidates, target("x", "2.0"))
	assert.True(t, ok)
	assert.Equal(t, "newer-upload", prev.FileHash)
}

func TestFindPrevious_Filters(t *testing.T) {
	otherAddon := stored("o", "1.0", 1, true)
	otherAddon.AddonGUID = "other@b"
	otherChannel := stored("c", "1.0", 2, true)
	otherChannel.Channel = domain.ChannelUnlisted
	sameFile := stored("self", "1.0", 3, true)
	noVersion := stored("nv", "", 4, true)
	sameVersion := stored("sv", "2.0", 5, true)

	_, ok := versions.FindPrevious(
		[]domain.StoredValidation{otherAddon, otherChannel, sameFile, noVersion, sameVersion},
		target("self", "2.0"),
	)
	assert.False(t, ok)
}

func TestFindPrevious_NeedsTargetIdentity(t *testing.T) {
	candidates := []domain.StoredValidation{stored("h1", "1.0", 1, true)}

	_, ok := versions.FindPrevious(candidates, versions.Target{FileHash: "x", Version: "2.0"})
	assert.False(t, ok)

	_, ok = versions.FindPrevious(candidates, versions.Target{FileHash: "x", AddonGUID: "a@b"})
	assert.False(t, ok)
}
