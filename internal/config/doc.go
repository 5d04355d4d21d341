// Package config loads pyreview configuration from local and global YAML
// files. It is internal; CLI code maps flags and files into analyzer and
// walk settings, with flags taking precedence over local over global.
package config
