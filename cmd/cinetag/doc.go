// Command cinetag writes cinematic scene tags from modeling-tool scene
// snapshots.
//
// The export command reads one or more YAML snapshots, converts cameras and
// depth of field into engine frames, and synchronises the cinematic scene tags
// under the configured tags root. Supporting commands inspect written tags,
// evaluate lens optics, list the export history, and manage configuration.
package main
