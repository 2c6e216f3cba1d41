// Package file provides file-backed configuration and prompt stores.
// Configuration lives in ~/.complia/config.toml; prompt templates are
// user-editable files under ~/.complia/prompts/ with embedded defaults.
package file
