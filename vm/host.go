package vm

// isLittleEndianHost records the byte order this build assumes for
// "host-native" memory access and for resolving the LE/BE endian-
// conversion opcodes relative to host order. Every platform this module
// ships on in practice (amd64, arm64) is little-endian; a big-endian
// target would need this flipped, which is why the rest of the package
// consults this constant rather than hard-coding the assumption inline.
const isLittleEndianHost = true
