// Cloudherd - Multi-Account Cloud Asset Inventory
// Assume. Collect. Persist.
package main

func main() {
	Execute()
}
