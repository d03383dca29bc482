package lineage

import (
	"strconv"

	"github.com/google/uuid"
)

// idNamespace seeds every derived id. Fixed so that ids are stable across
// runs, processes, and statement orderings.
var idNamespace = uuid.MustParse("7e9c1c24-5e36-4db0-9f57-3a8b1f6f0c2d")

// nodeID derives a node id from the node's identity tuple. Two nodes with
// the same kind and canonical name always share an id.
func nodeID(kind NodeKind, canonical string) string {
	return uuid.NewSHA1(idNamespace, []byte("node:"+string(kind)+":"+canonical)).String()
}

// edgeID derives an edge id from its endpoints.
func edgeID(from, to string) string {
	return uuid.NewSHA1(idNamespace, []byte("edge:"+from+":"+to)).String()
}

// crossEdgeID derives an id for a synthesized cross-statement edge. The
// statement pair is part of the identity: the same table produced and
// consumed in different statement pairs yields distinct edges.
func crossEdgeID(from, to string, producer, consumer int) string {
	key := "cross:" + from + ":" + to + ":" + strconv.Itoa(producer) + ":" + strconv.Itoa(consumer)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
