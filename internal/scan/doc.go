// Package scan discovers PHP files in a project and runs the lint analyzer
// over them with a bounded pool of workers.
package scan
