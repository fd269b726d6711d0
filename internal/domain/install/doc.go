// Package install holds the data model shared by the install pipeline stages
// (download tasks and install units) and the error categories every stage
// wraps its failures in.
package install
