// Command venera-packager builds the Venera Linux bundle and packs it into an RPM.
package main

import "github.com/oshokin/venera-packager/cmd/venera-packager/cmd"

func main() {
	cmd.Execute()
}
