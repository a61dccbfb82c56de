package main

import "github.com/santaclaude2025/sessiontriage/cmd"

func main() {
	cmd.Execute()
}
