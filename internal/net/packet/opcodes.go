package packet

// ProtocolVersion is bumped on any incompatible wire change.
const ProtocolVersion uint16 = 3

// Client → server opcodes.
const (
	C_OPCODE_VERSION     byte = 1
	C_OPCODE_LOGIN       byte = 2
	C_OPCODE_CHAR_LIST   byte = 3
	C_OPCODE_CREATE_CHAR byte = 4
	C_OPCODE_DELETE_CHAR byte = 5
	C_OPCODE_ENTER_WORLD byte = 6

	C_OPCODE_MOUNT   byte = 16
	C_OPCODE_UNMOUNT byte = 17
	C_OPCODE_LANTERN byte = 18

	C_OPCODE_GM_COMMAND byte = 32

	C_OPCODE_ALIVE byte = 250
	C_OPCODE_QUIT  byte = 251
)

// Server → client opcodes. The wire frame is [channel byte][opcode][fields].
const (
	S_OPCODE_VERSION_RESULT     byte = 1
	S_OPCODE_LOGIN_RESULT       byte = 2
	S_OPCODE_CHAR_LIST          byte = 3
	S_OPCODE_CHAR_CREATE_RESULT byte = 4
	S_OPCODE_CHAR_DELETE_RESULT byte = 5
	S_OPCODE_ENTER_WORLD_OK     byte = 6

	S_OPCODE_SET_PLAYER_ENTITY byte = 16
	S_OPCODE_MESSAGE           byte = 17
)
