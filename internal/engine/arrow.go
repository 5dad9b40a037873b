package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// SeriesMetadataKey names the schema metadata entry holding the built series.
const SeriesMetadataKey = "series_code"

func projectionSchema(code string) *arrow.Schema {
	md := arrow.NewMetadata([]string{SeriesMetadataKey}, []string{code})
	return arrow.NewSchema([]arrow.Field{
		{Name: "country", Type: arrow.BinaryTypes.String},
		{Name: "mean", Type: arrow.PrimitiveTypes.Float64},
	}, &md)
}

// Record converts the projection into a two-column Arrow record. The caller
// must Release it.
func (p *Projection) Record(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	names := array.NewStringBuilder(mem)
	defer names.Release()
	means := array.NewFloat64Builder(mem)
	defer means.Release()

	names.Reserve(len(p.entries))
	means.Reserve(len(p.entries))
	for _, e := range p.entries {
		names.Append(e.Country)
		means.Append(e.Mean)
	}

	cols := []arrow.Array{names.NewArray(), means.NewArray()}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(projectionSchema(p.seriesCode), cols, int64(len(p.entries)))
}

// WriteIPC streams the projection to w in the Arrow IPC stream format.
func WriteIPC(w io.Writer, p *Projection, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rec := p.Record(mem)
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
