// Command clipforge is the entrypoint for the ClipForge video cutting CLI.
// It cuts, retimes, grades, and reframes segments of a source video through
// an external ffmpeg, either one cut at a time or as a batch export driven
// by a project file.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
