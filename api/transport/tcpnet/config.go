package tcpnet

import (
	"fmt"
	"net"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Party identifies one numbered endpoint of the computation together with
// its network address. Ids are 1-based and immutable for the session.
type Party struct {
	ID   int    `toml:"id"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the party's dialable host:port address.
func (p Party) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func (p Party) String() string {
	return fmt.Sprintf("party %d (%s)", p.ID, p.Addr())
}

// Config describes the full set of parties plus the local party's id.
// It is validated once at construction and immutable thereafter.
type Config struct {
	myID    int
	parties map[int]Party
}

// NewConfig builds a validated configuration. The party ids must be
// exactly 1..len(parties), myID must be among them, and every id must fit
// in a single byte because the bootstrap handshake carries it as one.
func NewConfig(myID int, parties []Party) (*Config, error) {
	n := len(parties)
	if n < 1 {
		return nil, fmt.Errorf("configuration needs at least one party")
	}
	if n > 255 {
		return nil, fmt.Errorf("too many parties: %d (handshake ids are one byte)", n)
	}
	m := make(map[int]Party, n)
	for _, p := range parties {
		if p.ID < 1 || p.ID > n {
			return nil, fmt.Errorf("party id %d not in range 1..%d", p.ID, n)
		}
		if _, dup := m[p.ID]; dup {
			return nil, fmt.Errorf("duplicate party id %d", p.ID)
		}
		if p.Host == "" {
			return nil, fmt.Errorf("party %d has no host", p.ID)
		}
		if p.Port < 1 || p.Port > 65535 {
			return nil, fmt.Errorf("party %d has invalid port %d", p.ID, p.Port)
		}
		m[p.ID] = p
	}
	if _, ok := m[myID]; !ok {
		return nil, fmt.Errorf("my id %d is not among the configured parties", myID)
	}
	return &Config{myID: myID, parties: m}, nil
}

// MyID returns the local party's id.
func (c *Config) MyID() int { return c.myID }

// Me returns the local party.
func (c *Config) Me() Party { return c.parties[c.myID] }

// Party returns the party with the given id. The id must be valid, which
// NewConfig guarantees for 1..NoOfParties.
func (c *Config) Party(id int) Party { return c.parties[id] }

// NoOfParties returns N, the total number of parties.
func (c *Config) NoOfParties() int { return len(c.parties) }

type configFile struct {
	MyID    int     `toml:"my_id"`
	Parties []Party `toml:"party"`
}

// LoadConfig reads a TOML configuration file of the form:
//
//	my_id = 1
//
//	[[party]]
//	id = 1
//	host = "127.0.0.1"
//	port = 9001
//
//	[[party]]
//	id = 2
//	host = "127.0.0.1"
//	port = 9002
func LoadConfig(path string) (*Config, error) {
	var f configFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := NewConfig(f.MyID, f.Parties)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
