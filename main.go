// The main package for the police-log-etl executable.
package main

import (
	"github.com/JakeFAU/police-log-etl/cmd"
)

func main() {
	cmd.Execute()
}
