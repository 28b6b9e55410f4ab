// Package ports declares the interfaces and message types shared between the
// wdcsim adapters and the API layer.
package ports
