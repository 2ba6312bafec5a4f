package testing

import "github.com/imamik/furiosa-env/internal/probe"

// JammyFacts describes a bare-metal Ubuntu 22.04 amd64 host with a supported
// kernel and interpreter, before anything is installed.
func JammyFacts() probe.Facts {
	return probe.Facts{
		OSName:        "Ubuntu 22.04.4 LTS",
		Codename:      "jammy",
		KernelRelease: "6.5.0-35-generic",
		KernelVersion: "Linux version 6.5.0-35-generic (buildd@lcy02-amd64-079)",
		Architecture:  "amd64",
		Interpreter:   probe.Version{Major: 3, Minor: 10},
	}
}

// WSLFacts describes the same host running under WSL2.
func WSLFacts() probe.Facts {
	f := JammyFacts()
	f.KernelRelease = "5.15.153.1-microsoft-standard-WSL2"
	f.KernelVersion = "Linux version 5.15.153.1-microsoft-standard-WSL2"
	f.Virtualized = true
	return f
}
