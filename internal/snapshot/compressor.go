package snapshot

import (
	"plantao/internal/snapshot/interfaces"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// zstdCodec packs snapshot bodies into single zstd frames. Encoder and
// decoder are safe for concurrent EncodeAll/DecodeAll calls.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func (z *zstdCodec) Compress(body []byte) ([]byte, error) {
	return z.enc.EncodeAll(body, nil), nil
}

func (z *zstdCodec) Decompress(frame []byte) ([]byte, error) {
	body, err := z.dec.DecodeAll(frame, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decode snapshot frame")
	}
	return body, nil
}

func (z *zstdCodec) Close() {
	_ = z.enc.Close()
	z.dec.Close()
}

// NewZstdCompressor favors ratio over speed: records are small and
// snapshots are taken rarely.
func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression), zstd.WithEncoderCRC(true))
	if err != nil {
		return nil, errors.Wrap(err, "create zstd encoder")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = enc.Close()
		return nil, errors.Wrap(err, "create zstd decoder")
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}
