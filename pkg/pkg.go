// Package pkg holds the identity of the hugo module: its name, description,
// version and authors.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded from the VERSION
// file at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// configuration and cache paths.
	Name = "hugo"
	// Description is the one-line summary shown in help output.
	Description = "Parser front end for the hugo expression language"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
