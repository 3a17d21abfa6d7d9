// Package qrchunk splits an encoded message into fixed-size text chunks for
// sequential QR rendering and reassembles them on the receiving side.
//
// Chunk text is five tab-joined fields:
//
//	transactionId \t chunkNo \t totalChunks \t dataLength \t paddedData
//
// All chunks of one logical message share a random transaction id. The final
// chunk is NUL-padded to the chunk size; dataLength carries the true length,
// and Join must truncate by it or the tail of the message is corrupted.
//
// Cycling the chunks on screen is a display concern of the caller; chunkNo is
// explicit, so a scanner may pick them up in any order.
package qrchunk
