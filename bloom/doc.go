package bloom

// Not implemented here: github.com/willf/bloom's classic (non split-block)
// bit-array-plus-k-hash-functions scheme. Parquet's on-disk Bloom filter is
// always the split-block layout this package decodes; a classic filter
// would need a different bitset shape and is not a format this reader
// needs to support.
