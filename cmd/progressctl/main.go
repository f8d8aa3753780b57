// progressctl runs the operator tasks of fitprogress: batch plan regeneration,
// on-demand evaluations, evaluation exports to Google Drive and user creation.
package main

func main() {
	Execute()
}
