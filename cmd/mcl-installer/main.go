// Command mcl-installer installs a Java runtime and iTXTech MCL into the
// current directory.
package main

import "github.com/ilisfairy/mcl-installer/cmd/mcl-installer/cmd"

func main() {
	cmd.Execute()
}
