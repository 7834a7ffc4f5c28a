// Package config provides the pipeline's tunables and delivery secrets.
//
// Tunables come from an optional YAML file layered over defaults; secrets
// (SMTP credentials, recipient) come from the environment, with a .env file
// loaded first when present. All values are read-only for the rest of the
// program: a Config is built once at process start and passed into each
// component's constructor.
package config
