package main

import "os"

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain is the body of main, split out so test harnesses that re-exec
// this binary as a subcommand (testscript) can call it directly.
func runMain(args []string) int {
	return newCompilerFromArgs(args).run()
}
