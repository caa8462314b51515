// Package fileutil holds the file helpers used when materializing frames and
// writing generated files.
package fileutil
