package specialize

import (
	"github.com/joshuapare/varcore/internal/locator"
	"github.com/joshuapare/varcore/internal/memgw"
	"github.com/joshuapare/varcore/internal/parser"
	"github.com/joshuapare/varcore/pkg/typegraph"
	"github.com/joshuapare/varcore/pkg/variable"
	"github.com/joshuapare/varcore/pkg/varerr"
)

// hashbrownBuckets walks a hashbrown-layout RawTable embedded in raw: a
// bucket_mask landmark giving the (power-of-two - 1) bucket count, a ctrl
// pointer to the SIMD control-byte array, and a group_width landmark that
// must be present but whose value is not used: only the bucket_mask+1
// control bytes are read, never the trailing group_width padding bytes.
// A bucket's control byte has
// its high bit clear iff the bucket holds a live entry; data buckets sit
// immediately before ctrl in memory, addressed backwards from it.
func hashbrownBuckets(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR, entrySize uint64) ([]uint64, error) {
	mask, err := locator.AssumeScalarNumber(raw, "bucket_mask")
	if err != nil {
		return nil, err
	}
	ctrlPtr, err := locator.AssumePointer(raw, "ctrl")
	if err != nil {
		return nil, err
	}
	if _, err := locator.AssumeScalarNumber(raw, "group_width"); err != nil {
		return nil, err
	}
	if p.Gateway == nil {
		return nil, varerr.New(varerr.KindMemory, "no memory gateway configured")
	}
	buckets := uint64(mask) + 1
	ctrlBytes, err := p.Gateway.Read(p.PID, memgw.Addr(ctrlPtr.Address), int(buckets))
	if err != nil {
		return nil, varerr.Wrap(varerr.KindMemory, err, "reading control bytes")
	}
	var live []uint64
	for i := uint64(0); i < buckets; i++ {
		if ctrlBytes[i]&0x80 != 0 {
			continue // empty (0xff) or tombstone (0x80): top bit set
		}
		bucketAddr := ctrlPtr.Address - (i+1)*entrySize
		live = append(live, bucketAddr)
	}
	return live, nil
}

func named(name string, n *variable.IR) *variable.IR {
	cp := *n
	cp.Identity = variable.Identity{Name: name, HasName: true}
	return &cp
}

// extractHashMap projects a hashbrown-backed HashMap<K, V, S> into the
// {pairs: [{key, value}, ...]} shape the Selection Engine's HashMap lookup
// (§4.7, Field on Specialized(HashMap)) expects to scan linearly.
//
// hashbrown packs each live bucket as a (K, V) tuple immediately before its
// control byte; this assumes the common in-order layout (K followed by V)
// rather than modelling the compiler's field reordering, since the type
// graph here carries no tuple-layout node for it.
func extractHashMap(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	kType := raw.TypeParams["K"]
	vType := raw.TypeParams["V"]
	if kType == nil || vType == nil {
		return nil, varerr.IncompleteInterp("missing type parameter K or V")
	}
	kSize, ok := p.View.SizeInBytes(ctx, *kType)
	if !ok {
		return nil, varerr.UnknownTypeSize("K")
	}
	vSize, ok := p.View.SizeInBytes(ctx, *vType)
	if !ok {
		return nil, varerr.UnknownTypeSize("V")
	}
	buckets, err := hashbrownBuckets(p, ctx, raw, kSize+vSize)
	if err != nil {
		return nil, err
	}
	pairs := make([]*variable.IR, 0, len(buckets))
	for i, addr := range buckets {
		kv, err := readElements(p, ctx, addr, 1, *kType)
		if err != nil {
			return nil, err
		}
		vv, err := readElements(p, ctx, addr+kSize, 1, *vType)
		if err != nil {
			return nil, err
		}
		pair := synthStruct(named("key", kv[0]), named("value", vv[0]))
		pair.Identity = variable.IndexIdentity(uint64(i))
		pairs = append(pairs, pair)
	}
	return &variable.IR{Rendered: synthStruct(namedArray("pairs", pairs))}, nil
}

// extractHashSet mirrors extractHashMap for HashSet<T, S>, whose hashbrown
// table stores bare keys with a synthetic zero-sized value.
func extractHashSet(p *parser.Parser, ctx *typegraph.EvaluationContext, raw *variable.IR) (*variable.IR, error) {
	kType := raw.TypeParams["T"]
	if kType == nil {
		return nil, varerr.IncompleteInterp("missing type parameter T")
	}
	kSize, ok := p.View.SizeInBytes(ctx, *kType)
	if !ok {
		return nil, varerr.UnknownTypeSize("T")
	}
	buckets, err := hashbrownBuckets(p, ctx, raw, kSize)
	if err != nil {
		return nil, err
	}
	items := make([]*variable.IR, 0, len(buckets))
	for i, addr := range buckets {
		kv, err := readElements(p, ctx, addr, 1, *kType)
		if err != nil {
			return nil, err
		}
		item := kv[0]
		item.Identity = variable.IndexIdentity(uint64(i))
		items = append(items, item)
	}
	return &variable.IR{Rendered: synthStruct(namedArray("items", items))}, nil
}
