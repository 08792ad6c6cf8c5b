//go:generate go run github.com/ajitpratap0/freepool/cmd/poolgen --package=bytepool --output=bytes_freepool --prefix=Bytes -DELEM=[]byte

// Package bytepool holds one committed run of the poolgen generator: a
// []byte free pool used by the tests to verify that generated output
// compiles, behaves like the generic pool and passes the race detector.
package bytepool
