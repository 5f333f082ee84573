// Command autodrone compiles and runs an AutoDrone script headlessly
// against a level, printing the final score as JSON.
package main

import "github.com/dronescript/autodrone/pkg/cli"

func main() {
	cli.Execute()
}
