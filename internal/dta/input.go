package dta

import (
	"errors"
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// Input errors returned (wrapped) by SequenceBatch.
var (
	ErrNoSequences     = errors.New("no sequences")
	ErrSequenceTooLong = errors.New("sequence longer than sequence_length")
	ErrLabelOutOfRange = errors.New("label out of range")
)

// SequenceBatch packs label-encoded sequences into the int32
// [len(seqs), SequenceLength] input of an encoder built from cfg. Shorter
// sequences are right-padded with label 0. Labels must lie in
// [0, NumEmbeddings].
func SequenceBatch[B tensor.Backend](cfg SequenceEncoderConfig, seqs [][]int32, backend B) (*tensor.Tensor[int32, B], error) {
	if len(seqs) == 0 {
		return nil, ErrNoSequences
	}
	length := cfg.SequenceLength
	data := make([]int32, len(seqs)*length)
	for i, s := range seqs {
		if len(s) > length {
			return nil, fmt.Errorf("sequence %d: %w: %d > %d", i, ErrSequenceTooLong, len(s), length)
		}
		for j, label := range s {
			if label < 0 || int(label) > cfg.NumEmbeddings {
				return nil, fmt.Errorf("sequence %d position %d: %w: %d not in [0, %d]",
					i, j, ErrLabelOutOfRange, label, cfg.NumEmbeddings)
			}
		}
		copy(data[i*length:], s)
	}
	return tensor.FromSlice(data, tensor.Shape{len(seqs), length}, backend)
}
