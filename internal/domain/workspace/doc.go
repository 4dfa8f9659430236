// Package workspace tracks open project roots. Each workspace owns one
// terminal registry: every terminal opened in the workspace goes through it,
// and closing the workspace tears down all of its shell processes.
package workspace
