package bundle

import "github.com/blocto/solana-go-sdk/types"

// ChunkInstructions 将指令序列按每组最多 size 条切分，保持原有顺序，
// 不丢失、不重复。size 由调用方保证 >= 1。
// 每组对应一笔交易，组数为 ceil(len(ins)/size)。
func ChunkInstructions(ins []types.Instruction, size int) [][]types.Instruction {
	if len(ins) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}

	chunks := make([][]types.Instruction, 0, (len(ins)+size-1)/size)
	for start := 0; start < len(ins); start += size {
		end := start + size
		if end > len(ins) {
			end = len(ins)
		}
		// 复制一份，后续追加 tip 时不能影响输入 slice
		chunk := make([]types.Instruction, end-start)
		copy(chunk, ins[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}
