package rrdata

// EncodeCNAMEData encodes a CNAME target into its uncompressed wire form.
func EncodeCNAMEData(data string) ([]byte, error) {
	// data = "cname.example.com"
	return EncodeName(data)
}

// EncodeNSData encodes a name server host into its uncompressed wire form.
func EncodeNSData(data string) ([]byte, error) {
	// data = "ns.example.com"
	return EncodeName(data)
}
