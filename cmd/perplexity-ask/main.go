package main

import "github.com/ppl-ai/perplexity-ask-go/internal/cmd"

func main() {
	cmd.Execute()
}
