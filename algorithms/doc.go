// Package algorithms implements point-cloud processing passes that
// operate on the buffer and view types of package containers.
package algorithms
