package simconfig

// WindowProps is the geometry string for the simulator popup window.
const WindowProps = "height=500,width=800"

var samples = [...]string{
	"../Examples/html/earthquakeUSGS.html",
	"../Examples/html/earthquakeMultitable.html",
	"../Examples/html/earthquakeMultilingual.html",
	"../Examples/html/IncrementalRefreshConnector.html",
	"../Examples/html/MadMoneyScraper.html",
}

// Samples returns the sample connector URLs in order. The slice is a copy.
func Samples() []string {
	out := make([]string, len(samples))
	copy(out, samples[:])
	return out
}
