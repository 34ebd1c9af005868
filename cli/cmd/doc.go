// Package cmd provides the convert subcommand that extracts Lua prototype
// data tables from source files and writes them as JSON or YAML.
package cmd
