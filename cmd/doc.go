// Package cmd implements the command-line interface for instameet.
//
// This package provides the following commands:
//   - serve: Start the web server for sign-in and meeting creation
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
