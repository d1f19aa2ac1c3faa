// Gambit is the command line companion to the gambit decision sidecar.
//
// Usage:
//
//	# Type-check rule files
//	gambit check rules/cautious.yaml rules/berserk.json
//
//	# List the available tokens and their signatures
//	gambit tokens
//
//	# Play a battle between two rule files
//	gambit simulate --rules cautious.yaml --enemy-rules berserk.yaml --seed 7
package main

func main() {
	Execute()
}
