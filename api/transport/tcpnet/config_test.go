package tcpnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeParties() []Party {
	return []Party{
		{ID: 1, Host: "127.0.0.1", Port: 9001},
		{ID: 2, Host: "127.0.0.1", Port: 9002},
		{ID: 3, Host: "127.0.0.1", Port: 9003},
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(2, threeParties())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MyID())
	assert.Equal(t, 3, cfg.NoOfParties())
	assert.Equal(t, "127.0.0.1:9002", cfg.Me().Addr())
	assert.Equal(t, 3, cfg.Party(3).ID)
}

func TestNewConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		myID    int
		parties []Party
	}{
		{"no parties", 1, nil},
		{"my id missing", 4, threeParties()},
		{"duplicate id", 1, []Party{
			{ID: 1, Host: "a", Port: 1}, {ID: 1, Host: "b", Port: 2},
		}},
		{"id out of range", 1, []Party{
			{ID: 1, Host: "a", Port: 1}, {ID: 5, Host: "b", Port: 2},
		}},
		{"zero id", 1, []Party{{ID: 0, Host: "a", Port: 1}}},
		{"empty host", 1, []Party{{ID: 1, Host: "", Port: 1}}},
		{"bad port", 1, []Party{{ID: 1, Host: "a", Port: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.myID, tc.parties)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	contents := `
my_id = 2

[[party]]
id = 1
host = "127.0.0.1"
port = 9001

[[party]]
id = 2
host = "127.0.0.1"
port = 9002
`
	path := filepath.Join(t.TempDir(), "parties.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MyID())
	assert.Equal(t, 2, cfg.NoOfParties())
	assert.Equal(t, "127.0.0.1:9001", cfg.Party(1).Addr())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
