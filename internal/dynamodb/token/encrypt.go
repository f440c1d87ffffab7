package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/nutrition/internal/data"
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode EncryptMode
}

type sealedToken struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

func NewGCM() *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode: cipher.NewGCM,
	}
}

func keyToPlaintext(lastKey map[string]types.AttributeValue) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	next := make(data.NextToken, len(lastKey))
	for field, value := range lastKey {
		switch v := value.(type) {
		case *types.AttributeValueMemberS:
			next[field] = map[string]string{"S": v.Value}
		case *types.AttributeValueMemberN:
			next[field] = map[string]string{"N": v.Value}
		case *types.AttributeValueMemberB:
			next[field] = map[string]string{"B": string(v.Value)}
		default:
			return nil, fmt.Errorf("unsupported key type for %s: %T", field, value)
		}
	}
	return json.Marshal(next)
}

func plaintextToKey(plaintext []byte) (map[string]types.AttributeValue, error) {
	var next data.NextToken
	if err := json.Unmarshal(plaintext, &next); err != nil {
		return nil, err
	}
	lastKey := make(map[string]types.AttributeValue, len(next))
	for field, typed := range next {
		if s, ok := typed["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{Value: s}
		} else if n, ok := typed["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{Value: n}
		} else if b, ok := typed["B"]; ok {
			lastKey[field] = &types.AttributeValueMemberB{Value: []byte(b)}
		}
	}
	return lastKey, nil
}

func (em *EncryptionTokenMarshaler) aead(accountId string) (cipher.AEAD, error) {
	digest := sha256.Sum256([]byte(accountId))
	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return nil, err
	}
	return em.Mode(block)
}

func (em *EncryptionTokenMarshaler) Marshal(accountId string, lastKey map[string]types.AttributeValue) ([]byte, error) {
	plaintext, err := keyToPlaintext(lastKey)
	if err != nil || plaintext == nil {
		return nil, err
	}
	aead, err := em.aead(accountId)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed, err := json.Marshal(sealedToken{
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(sealed)))
	base64.URLEncoding.Encode(encoded, sealed)
	return encoded, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(accountId string, token []byte) (map[string]types.AttributeValue, error) {
	if len(token) == 0 {
		return nil, nil
	}
	decoded := make([]byte, base64.URLEncoding.DecodedLen(len(token)))
	n, err := base64.URLEncoding.Decode(decoded, token)
	if err != nil {
		return nil, err
	}
	var sealed sealedToken
	if err := json.Unmarshal(decoded[:n], &sealed); err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(sealed.Ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(sealed.Nonce)
	if err != nil {
		return nil, err
	}
	aead, err := em.aead(accountId)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("invalid token nonce")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return plaintextToKey(plaintext)
}
