package remote

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
)

// Wire format, shared by the HTTP client and the orderd handlers. Prices
// travel as decimal strings so two-place amounts round-trip exactly;
// order numbers are plain integers, descriptions UTF-8 strings.

// MarshalBasket encodes a basket.
func MarshalBasket(b *catalogue.Basket) []byte {
	var e jx.Encoder
	encodeBasket(&e, b)
	return e.Bytes()
}

func encodeBasket(e *jx.Encoder, b *catalogue.Basket) {
	e.ObjStart()
	e.FieldStart("orderNumber")
	e.Int(b.OrderNumber())
	e.FieldStart("lines")
	e.ArrStart()
	for _, p := range b.Lines() {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(p.Code)
		e.FieldStart("description")
		e.Str(p.Description)
		e.FieldStart("unitPrice")
		e.Str(p.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(p.Quantity)
		e.FieldStart("imageRef")
		e.Str(p.ImageRef)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// UnmarshalBasket decodes a basket.
func UnmarshalBasket(data []byte) (*catalogue.Basket, error) {
	d := jx.DecodeBytes(data)
	return decodeBasket(d)
}

func decodeBasket(d *jx.Decoder) (*catalogue.Basket, error) {
	b := catalogue.NewBasket()
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "orderNumber":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "orderNumber")
			}
			b.SetOrderNumber(n)
			return nil
		case "lines":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				b.Add(p)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode basket")
	}
	return b, nil
}

func decodeProduct(d *jx.Decoder) (catalogue.Product, error) {
	var p catalogue.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "code":
			v, err := d.Str()
			p.Code = v
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "unitPrice":
			raw, err := d.Str()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return errors.Wrap(err, "unitPrice")
			}
			p.UnitPrice = price
			return nil
		case "quantity":
			v, err := d.Int()
			p.Quantity = v
			return err
		case "imageRef":
			v, err := d.Str()
			p.ImageRef = v
			return err
		default:
			return d.Skip()
		}
	})
	return p, err
}

// MarshalOrderNumber encodes a server-issued order number.
func MarshalOrderNumber(n int) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("orderNumber")
	e.Int(n)
	e.ObjEnd()
	return e.Bytes()
}

// UnmarshalOrderNumber decodes a server-issued order number.
func UnmarshalOrderNumber(data []byte) (int, error) {
	var n int
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "orderNumber" {
			return d.Skip()
		}
		v, err := d.Int()
		n = v
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "decode order number")
	}
	return n, nil
}

// MarshalAck encodes a boolean lifecycle acknowledgement.
func MarshalAck(ok bool) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("ok")
	e.Bool(ok)
	e.ObjEnd()
	return e.Bytes()
}

// UnmarshalAck decodes a boolean lifecycle acknowledgement.
func UnmarshalAck(data []byte) (bool, error) {
	var ok bool
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "ok" {
			return d.Skip()
		}
		v, err := d.Bool()
		ok = v
		return err
	})
	if err != nil {
		return false, errors.Wrap(err, "decode ack")
	}
	return ok, nil
}

// MarshalState encodes an order-state snapshot.
func MarshalState(snap orders.StateSnapshot) []byte {
	var e jx.Encoder
	e.ObjStart()
	// Fixed stage order keeps the payload stable for humans reading it.
	for _, stage := range []string{orders.StageWaiting, orders.StageBeingPacked, orders.StageToBeCollected} {
		e.FieldStart(stage)
		e.ArrStart()
		for _, n := range snap[stage] {
			e.Int(n)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
	return e.Bytes()
}

// UnmarshalState decodes an order-state snapshot.
func UnmarshalState(data []byte) (orders.StateSnapshot, error) {
	snap := make(orders.StateSnapshot)
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		nums := []int{}
		if err := d.Arr(func(d *jx.Decoder) error {
			v, err := d.Int()
			if err != nil {
				return err
			}
			nums = append(nums, v)
			return nil
		}); err != nil {
			return err
		}
		snap[key] = nums
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode state")
	}
	return snap, nil
}
