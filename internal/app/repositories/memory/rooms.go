package memory

import (
	"context"
	"sort"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/repositories"
)

type roomRepo struct{ view }

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.rooms[room.RoomNumber]; ok {
			return repositories.ErrDuplicate
		}
		st.roomSeq++
		now := r.now()
		room.ID = st.roomSeq
		room.CreatedAt, room.UpdatedAt = now, now
		stored := *room
		st.rooms[room.RoomNumber] = &stored
		return nil
	})
}

func (r *roomRepo) GetByNumber(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error) {
	var out *models.RoomOccupancy
	err := r.do(ctx, func(st *state) error {
		room, ok := st.rooms[roomNumber]
		if !ok {
			return repositories.ErrNotFound
		}
		out = models.NewRoomOccupancy(*room, st.occupants(roomNumber))
		return nil
	})
	return out, err
}

func (r *roomRepo) GetByNumberForUpdate(ctx context.Context, roomNumber string) (*models.RoomOccupancy, error) {
	return r.GetByNumber(ctx, roomNumber)
}

func (r *roomRepo) List(ctx context.Context) ([]*models.RoomOccupancy, error) {
	out := []*models.RoomOccupancy{}
	err := r.do(ctx, func(st *state) error {
		for number, room := range st.rooms {
			out = append(out, models.NewRoomOccupancy(*room, st.occupants(number)))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, err
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	return r.do(ctx, func(st *state) error {
		stored, ok := st.rooms[room.RoomNumber]
		if !ok {
			return repositories.ErrNotFound
		}
		stored.Capacity = room.Capacity
		stored.RoomType = room.RoomType
		stored.Floor = room.Floor
		stored.AvailabilityStatus = room.AvailabilityStatus
		stored.Description = room.Description
		stored.UpdatedAt = r.now()
		room.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r *roomRepo) Delete(ctx context.Context, roomNumber string) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.rooms[roomNumber]; !ok {
			return repositories.ErrNotFound
		}
		if st.occupants(roomNumber) > 0 {
			return repositories.ErrReferenced
		}
		delete(st.rooms, roomNumber)
		for id, m := range st.maintenance {
			if m.RoomNumber == roomNumber {
				delete(st.maintenance, id)
			}
		}
		return nil
	})
}

func (r *roomRepo) Counts(ctx context.Context) (models.RoomCounts, error) {
	var counts models.RoomCounts
	err := r.do(ctx, func(st *state) error {
		for _, room := range st.rooms {
			counts.Total++
			if room.AvailabilityStatus == models.RoomAvailable {
				counts.Available++
			}
		}
		return nil
	})
	counts.Occupied = counts.Total - counts.Available
	return counts, err
}
