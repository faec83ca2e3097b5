package flowctlcfg

import (
	"fmt"
	"net/url"
	"strings"
)

// GetServer returns the server named name.
func (c *Configuration) GetServer(name string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: `%s`", ErrServerNotFound, name)
}

// Current returns the current server.
func (c *Configuration) Current() (*Server, error) {
	return c.GetServer(c.CurrentServer)
}

// UseServer makes name the current server.
func (c *Configuration) UseServer(name string) error {
	if _, err := c.GetServer(name); err != nil {
		return err
	}
	c.CurrentServer = name
	return nil
}

// AddServer appends a server.
func (c *Configuration) AddServer(name, rawURL string) error {
	if name == "" {
		return fmt.Errorf("server name is required")
	}
	if _, err := c.GetServer(name); err == nil {
		return fmt.Errorf("%w: `%s`", ErrServerExists, name)
	}
	if !IsServerURL(rawURL) {
		return fmt.Errorf("invalid server url %q", rawURL)
	}
	c.Servers = append(c.Servers, Server{Name: name, URL: rawURL})
	return nil
}

// RemoveServer deletes a server. The last remaining server becomes current.
func (c *Configuration) RemoveServer(name string) error {
	if _, err := c.GetServer(name); err != nil {
		return err
	}
	kept := c.Servers[:0]
	for _, s := range c.Servers {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	c.Servers = kept
	c.CurrentServer = ""
	if len(kept) > 0 {
		c.CurrentServer = kept[len(kept)-1].Name
	}
	return nil
}

// SelectServer applies a --server value: a URL is added as the "cli" server
// and made current, anything else must name a configured server.
func (c *Configuration) SelectServer(server string) error {
	if server == "" {
		return nil
	}
	if !IsServerURL(server) {
		return c.UseServer(server)
	}
	if s, err := c.GetServer(CLIServerName); err == nil {
		s.URL = server
	} else {
		c.Servers = append(c.Servers, Server{Name: CLIServerName, URL: server})
	}
	c.CurrentServer = CLIServerName
	return nil
}

// IsServerURL reports whether s is an http(s) URL with a host, or a
// memory: or sqlite: sandbox URL.
func IsServerURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "memory", "sqlite", "sqlite3":
		return true
	}
	return false
}
