// Package config handles loading and validation of the service configuration
// from defaults, an optional YAML file and environment variables. PORT selects
// the listening port; the remaining keys map to upper-cased, underscore-joined
// variables such as TASK_INTERVAL.
package config
