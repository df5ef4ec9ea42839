package wordfreq

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// decodeMsgpack decodes the subset of MessagePack used by wordfreq data files:
// nil, bools, integers, floats, strings, arrays and maps.
func decodeMsgpack(r io.Reader) (interface{}, error) {
	dec := msgpackDecoder{r: bufio.NewReader(r)}
	return dec.value()
}

type msgpackDecoder struct {
	r *bufio.Reader
}

func (d *msgpackDecoder) value() (interface{}, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch {
	case b <= 0x7f:
		return int64(b), nil
	case b >= 0xe0:
		return int64(int8(b)), nil
	case b&0xe0 == 0xa0:
		return d.str(int(b & 0x1f))
	case b&0xf0 == 0x90:
		return d.array(int(b & 0x0f))
	case b&0xf0 == 0x80:
		return d.dict(int(b & 0x0f))
	}

	switch b {
	case 0xc0:
		return nil, nil
	case 0xc2:
		return false, nil
	case 0xc3:
		return true, nil
	case 0xca:
		v, err := d.uint(4)
		return float64(math.Float32frombits(uint32(v))), err
	case 0xcb:
		v, err := d.uint(8)
		return math.Float64frombits(v), err
	case 0xcc, 0xcd, 0xce, 0xcf:
		v, err := d.uint(1 << (b - 0xcc))
		return int64(v), err
	case 0xd0, 0xd1, 0xd2, 0xd3:
		size := 1 << (b - 0xd0)
		v, err := d.uint(size)
		shift := 64 - 8*size
		return int64(v<<shift) >> shift, err
	case 0xd9, 0xda, 0xdb:
		n, err := d.uint(1 << (b - 0xd9))
		if err != nil {
			return nil, err
		}
		return d.str(int(n))
	case 0xdc, 0xdd:
		n, err := d.uint(2 << (b - 0xdc))
		if err != nil {
			return nil, err
		}
		return d.array(int(n))
	case 0xde, 0xdf:
		n, err := d.uint(2 << (b - 0xde))
		if err != nil {
			return nil, err
		}
		return d.dict(int(n))
	}
	return nil, fmt.Errorf("unsupported msgpack prefix 0x%x", b)
}

func (d *msgpackDecoder) uint(size int) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[8-size:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (d *msgpackDecoder) str(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *msgpackDecoder) array(n int) ([]interface{}, error) {
	out := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *msgpackDecoder) dict(n int) (map[interface{}]interface{}, error) {
	out := make(map[interface{}]interface{}, n)
	for i := 0; i < n; i++ {
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
