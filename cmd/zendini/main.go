// Command zendini validates ini manifests and registers them with a Zend
// engine compiled to WebAssembly.
package main

func main() {
	Execute()
}
