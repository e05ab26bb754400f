package indexer

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
)

var envelopeMark = []byte{txscript.OP_0, txscript.OP_IF, txscript.OP_DATA_3, 'o', 'r', 'd'}

// ParseEnvelope extracts the first inscription envelope from the
// transaction's first input witness, if any. The envelope is a no-op
// branch in a tapscript:
//
//	OP_FALSE OP_IF "ord" OP_1 <content-type> OP_0 <body>... OP_ENDIF
//
// Returns nil when the transaction reveals no inscription.
func ParseEnvelope(tx *wire.MsgTx) *common.Inscription {
	if len(tx.TxIn) == 0 {
		return nil
	}
	for _, item := range tx.TxIn[0].Witness {
		pos := bytes.Index(item, envelopeMark)
		if pos < 0 {
			continue
		}
		if inscription := parseEnvelopeScript(item[pos+len(envelopeMark):]); inscription != nil {
			return inscription
		}
	}
	return nil
}

// parseEnvelopeScript walks the envelope payload after the "ord" tag.
// Fields precede the body: tag OP_1 carries the content type, the bare
// OP_0 separator starts the body, which may span several pushes.
func parseEnvelopeScript(script []byte) *common.Inscription {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	inscription := &common.Inscription{}

	inBody := false
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		if op == txscript.OP_ENDIF {
			return inscription
		}
		if inBody {
			inscription.Content = append(inscription.Content, tokenizer.Data()...)
			continue
		}
		if op == txscript.OP_0 {
			inBody = true
			continue
		}
		tag := fieldTag(op, tokenizer.Data())
		if !tokenizer.Next() {
			return nil
		}
		if tag == 1 {
			inscription.ContentType = string(tokenizer.Data())
		}
		// other field tags are ignored
	}
	// Malformed script or no OP_ENDIF.
	return nil
}

// fieldTag decodes an envelope field tag, pushed either as a one-byte
// data push or as a small-integer opcode.
func fieldTag(op byte, data []byte) int {
	if len(data) == 1 {
		return int(data[0])
	}
	if op >= txscript.OP_1 && op <= txscript.OP_16 {
		return int(op-txscript.OP_1) + 1
	}
	return -1
}
