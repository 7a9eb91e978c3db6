package boundcheck

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mapreg/boundcheck/internal/hash"
)

// BoundaryDigest is the record handed to the deduplication and
// commitment stages: a stable id plus content hashes of geometry and
// properties. Hashes are canonical, so identical content always
// digests identically regardless of map order.
type BoundaryDigest struct {
	ID             string `msgpack:"id"`
	GeometryHash   uint64 `msgpack:"geometry_hash"`
	PropertiesHash uint64 `msgpack:"properties_hash"`
}

func DigestBoundary(b NormalizedBoundary) BoundaryDigest {
	return BoundaryDigest{
		ID:             b.ID,
		GeometryHash:   geometryHash(b.Geometry),
		PropertiesHash: propertiesHash(b.Properties),
	}
}

func DigestBoundaries(boundaries []NormalizedBoundary) []BoundaryDigest {
	digests := make([]BoundaryDigest, 0, len(boundaries))
	for _, b := range boundaries {
		digests = append(digests, DigestBoundary(b))
	}
	return digests
}

// EncodeDigests packs digests for transport to the next pipeline
// stage.
func EncodeDigests(digests []BoundaryDigest) ([]byte, error) {
	return msgpack.Marshal(digests)
}

func DecodeDigests(data []byte) ([]BoundaryDigest, error) {
	var digests []BoundaryDigest
	if err := msgpack.Unmarshal(data, &digests); err != nil {
		return nil, fmt.Errorf("boundcheck/digest: %w", err)
	}
	return digests, nil
}

func geometryHash(g PolygonGeometry) uint64 {
	h := hash.New()
	_, _ = h.Write([]byte{byte(g.Kind())})
	for _, rs := range g.RingSets() {
		writeRing(h, rs.Exterior)
		for _, hole := range rs.Holes {
			writeRing(h, hole)
		}
	}
	return h.Sum64()
}

func writeRing(w io.Writer, ring []GeoPoint) {
	_, _ = w.Write([]byte("ring"))
	for _, p := range ring {
		_, _ = w.Write([]byte(strconv.FormatFloat(p.Lon, 'g', -1, 64)))
		_, _ = w.Write([]byte(","))
		_, _ = w.Write([]byte(strconv.FormatFloat(p.Lat, 'g', -1, 64)))
		_, _ = w.Write([]byte(";"))
	}
}

func propertiesHash(props map[string]interface{}) uint64 {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := hash.New()
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte("="))
		_, _ = h.Write([]byte(fmt.Sprintf("%v", props[k])))
		_, _ = h.Write([]byte(";"))
	}
	return h.Sum64()
}
