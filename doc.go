// Package huffman implements static Huffman coding of text.  A code is
// derived from the symbol frequencies of a message, the message is encoded
// into a bitstream terminated by an in-band end-of-stream symbol, and the
// bitstream is decoded by walking the same tree bit by bit.
//
// Typical use:
//
//     freqs := huffman.CountFrequencies(text)
//     tree, err := huffman.BuildTree(freqs)
//     table, err := huffman.DeriveCodeTable(tree)
//     bs, err := huffman.NewEncoder(table).EncodeString(text)
//     out, err := huffman.NewDecoder(tree).DecodeString(bs)
//
// Compress and Decompress wrap the whole pipeline and persist the frequency
// table next to the payload, so the tree can be rebuilt on the other side.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
