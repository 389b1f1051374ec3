package mdcode

// Unfence parses a Markdown document and returns all fenced code blocks.
func Unfence(source []byte) (Blocks, error) {
	var blocks Blocks

	err := Scan(source, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}
