package httpHandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	customerrors "hotel-server/customErrors"
	"hotel-server/entities"
	"hotel-server/forms"
	"hotel-server/usecases"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const maxUploadMemory = 32 << 20

// uploadFields are the multipart file fields accepted as hotel images.
var uploadFields = []string{"images", "images[]"}

// decodeHotelRequest reads hotel fields from a JSON, urlencoded or
// multipart body. Only multipart bodies carry files.
func decodeHotelRequest(c *gin.Context) (usecases.HotelInput, []*multipart.FileHeader, error) {
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			return usecases.HotelInput{}, nil, customerrors.Validation("invalid multipart body")
		}
		form := c.Request.MultipartForm
		var files []*multipart.FileHeader
		for _, field := range uploadFields {
			files = append(files, form.File[field]...)
		}
		in, err := inputFromValues(form.Value)
		return in, files, err

	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return usecases.HotelInput{}, nil, customerrors.Validation("invalid form body")
		}
		in, err := inputFromValues(c.Request.PostForm)
		return in, nil, err

	default:
		raw := map[string]json.RawMessage{}
		if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
			return usecases.HotelInput{}, nil, customerrors.Validation("invalid JSON body")
		}
		in, err := inputFromJSON(raw)
		return in, nil, err
	}
}

var stringFields = map[string]func(in *usecases.HotelInput, v *string){
	"name":          func(in *usecases.HotelInput, v *string) { in.Name = v },
	"description":   func(in *usecases.HotelInput, v *string) { in.Description = v },
	"address":       func(in *usecases.HotelInput, v *string) { in.Address = v },
	"city":          func(in *usecases.HotelInput, v *string) { in.City = v },
	"contactPhone":  func(in *usecases.HotelInput, v *string) { in.ContactPhone = v },
	"checkInTime":   func(in *usecases.HotelInput, v *string) { in.CheckInTime = v },
	"checkOutTime":  func(in *usecases.HotelInput, v *string) { in.CheckOutTime = v },
	"ownerId":       func(in *usecases.HotelInput, v *string) { in.OwnerID = v },
	"ownerName":     func(in *usecases.HotelInput, v *string) { in.OwnerName = v },
	"status":        func(in *usecases.HotelInput, v *string) { in.Status = v },
	"publishStatus": func(in *usecases.HotelInput, v *string) { in.PublishStatus = v },
	"rejectReason":  func(in *usecases.HotelInput, v *string) { in.RejectReason = v },
}

// inputFromValues maps form values onto a HotelInput. List fields may be
// repeated keys, indexed keys or a single JSON-encoded value.
func inputFromValues(values map[string][]string) (usecases.HotelInput, error) {
	var in usecases.HotelInput

	for key, set := range stringFields {
		if v, ok := values[key]; ok && len(v) > 0 {
			s := v[0]
			set(&in, &s)
		}
	}

	var err error
	if in.Price, err = formNumber(values, "price"); err != nil {
		return in, err
	}
	if in.Rating, err = formNumber(values, "rating"); err != nil {
		return in, err
	}

	if items, ok := forms.List("amenities", values); ok {
		list, err := stringList("amenities", items)
		if err != nil {
			return in, err
		}
		in.Amenities = &list
	}

	if items, ok := forms.List("images", values); ok {
		if len(items) == 1 {
			in.ImagesRaw = &items[0]
		} else {
			list := compact(items)
			in.Images = &list
		}
	}

	switch {
	case forms.HasIndexed("roomTypes", values):
		rooms, err := roomTypesFromFields(forms.Indexed("roomTypes", values))
		if err != nil {
			return in, err
		}
		in.RoomTypes = &rooms
	case len(values["roomTypes"]) > 0:
		var rooms []entities.RoomType
		if err := decodeRoomTypes([]byte(values["roomTypes"][0]), &rooms); err != nil {
			return in, err
		}
		in.RoomTypes = &rooms
	}

	return in, nil
}

func formNumber(values map[string][]string, key string) (*float64, error) {
	v, ok := values[key]
	if !ok || len(v) == 0 || strings.TrimSpace(v[0]) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v[0]), 64)
	if err != nil {
		return nil, customerrors.Validation(key + " must be a number")
	}
	return &f, nil
}

// stringList accepts either plain items or a single JSON-encoded list.
func stringList(field string, items []string) ([]string, error) {
	if len(items) == 1 && strings.HasPrefix(strings.TrimSpace(items[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(items[0]), &list); err != nil {
			return nil, customerrors.Validation(field + " must be a list of strings")
		}
		return compact(list), nil
	}
	return compact(items), nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func roomTypesFromFields(groups []map[string]string) ([]entities.RoomType, error) {
	rooms := make([]entities.RoomType, 0, len(groups))
	for i, fields := range groups {
		room, err := roomTypeFromFields(fields, i)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func roomTypeFromFields(fields map[string]string, i int) (entities.RoomType, error) {
	room := entities.RoomType{Name: strings.TrimSpace(fields["name"]), Amenities: []string{}}

	var err error
	if room.Price, err = fieldFloat(fields, "price", i); err != nil {
		return room, err
	}
	if room.Capacity, err = fieldInt(fields, "capacity", i); err != nil {
		return room, err
	}
	if room.Count, err = fieldInt(fields, "count", i); err != nil {
		return room, err
	}
	if raw, ok := fields["amenities"]; ok {
		if strings.HasPrefix(strings.TrimSpace(raw), "[") {
			room.Amenities, err = stringList(fmt.Sprintf("roomTypes[%d].amenities", i), []string{raw})
		} else {
			room.Amenities = compact(strings.Split(raw, ","))
		}
	}
	return room, err
}

func fieldFloat(fields map[string]string, key string, i int) (float64, error) {
	raw := strings.TrimSpace(fields[key])
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, customerrors.Validation(fmt.Sprintf("roomTypes[%d].%s must be a number", i, key))
	}
	return f, nil
}

func fieldInt(fields map[string]string, key string, i int) (int, error) {
	raw := strings.TrimSpace(fields[key])
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, customerrors.Validation(fmt.Sprintf("roomTypes[%d].%s must be an integer", i, key))
	}
	return n, nil
}

// inputFromJSON maps a decoded JSON object onto a HotelInput. Null values
// count as absent.
func inputFromJSON(raw map[string]json.RawMessage) (usecases.HotelInput, error) {
	var in usecases.HotelInput

	for key, set := range stringFields {
		v, ok, err := jsonString(raw, key)
		if err != nil {
			return in, err
		}
		if ok {
			set(&in, &v)
		}
	}

	var err error
	if in.Price, err = jsonNumber(raw, "price"); err != nil {
		return in, err
	}
	if in.Rating, err = jsonNumber(raw, "rating"); err != nil {
		return in, err
	}

	if v, ok := present(raw, "amenities"); ok {
		list, err := jsonStringList("amenities", v)
		if err != nil {
			return in, err
		}
		in.Amenities = &list
	}

	if v, ok := present(raw, "images"); ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			in.ImagesRaw = &s
		} else {
			list, err := jsonStringList("images", v)
			if err != nil {
				return in, err
			}
			in.Images = &list
		}
	}

	if v, ok := present(raw, "roomTypes"); ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			v = json.RawMessage(s)
		}
		var rooms []entities.RoomType
		if err := decodeRoomTypes(v, &rooms); err != nil {
			return in, err
		}
		in.RoomTypes = &rooms
	}

	return in, nil
}

func present(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	v, ok := raw[key]
	if !ok || len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

// jsonString accepts strings and scalars, which are rendered as text.
func jsonString(raw map[string]json.RawMessage, key string) (string, bool, error) {
	v, ok := present(raw, key)
	if !ok {
		return "", false, nil
	}
	var val interface{}
	if err := json.Unmarshal(v, &val); err != nil {
		return "", false, customerrors.Validation(key + " is malformed")
	}
	switch t := val.(type) {
	case string:
		return t, true, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	default:
		return "", false, customerrors.Validation(key + " must be a string")
	}
}

// jsonNumber accepts a number or a numeric string.
func jsonNumber(raw map[string]json.RawMessage, key string) (*float64, error) {
	v, ok := present(raw, key)
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return &f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f, nil
		}
	}
	return nil, customerrors.Validation(key + " must be a number")
}

// jsonStringList accepts an array of strings, a JSON-encoded array in a
// string, or a single string.
func jsonStringList(field string, v json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return compact(list), nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return stringList(field, []string{s})
	}
	return nil, customerrors.Validation(field + " must be a list of strings")
}

// roomTypeDoc tolerates numeric fields sent as strings.
type roomTypeDoc struct {
	Name      string          `json:"name"`
	Price     json.Number     `json:"price"`
	Capacity  json.Number     `json:"capacity"`
	Count     json.Number     `json:"count"`
	Amenities json.RawMessage `json:"amenities"`
}

func decodeRoomTypes(data []byte, out *[]entities.RoomType) error {
	var docs []roomTypeDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return customerrors.Validation("roomTypes must be a list of room types")
	}

	rooms := make([]entities.RoomType, 0, len(docs))
	for i, d := range docs {
		fields := map[string]string{
			"name":     d.Name,
			"price":    d.Price.String(),
			"capacity": d.Capacity.String(),
			"count":    d.Count.String(),
		}
		room, err := roomTypeFromFields(fields, i)
		if err != nil {
			return err
		}
		if len(d.Amenities) > 0 && string(d.Amenities) != "null" {
			if room.Amenities, err = jsonStringList(fmt.Sprintf("roomTypes[%d].amenities", i), d.Amenities); err != nil {
				return err
			}
		}
		rooms = append(rooms, room)
	}
	*out = rooms
	return nil
}
