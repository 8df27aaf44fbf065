/*
Package domain contains the core domain models shared by the espalier
routing tree and its adapters.

It defines the routing subject (Order), the result of a routing call
(Decision), and the serializable tree snapshot (NodeInfo) consumed by the
HTTP and presentation layers. The package is kept pure and free of external
dependencies like I/O or persistence; the routing core treats Order as an
opaque, read-only subject.
*/
package domain
