package provider

import (
	"service/internal/entities"
)

func ToDomain(p *ProviderDB) *entities.Provider {
	if p == nil {
		return nil
	}

	return &entities.Provider{
		ID:            p.ID,
		Name:          p.Name,
		WaID:          p.WaID,
		Coords:        entities.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude},
		RangeMeters:   p.RangeMeters,
		ServiceIDs:    p.ServiceIDs,
		TimeSlots:     p.TimeSlots,
		DeliveryType:  entities.DeliveryType(p.DeliveryType),
		AutoAccept:    p.AutoAccept,
		DailyLimit:    p.DailyLimit,
		SlotLimits:    p.SlotLimits,
		ServiceLimits: p.ServiceLimits,
		IsActive:      p.IsActive,
		Rating:        p.Rating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToDomainList(providersDB []ProviderDB) []entities.Provider {
	if len(providersDB) == 0 {
		return []entities.Provider{}
	}

	result := make([]entities.Provider, len(providersDB))
	for i, providerDB := range providersDB {
		result[i] = *ToDomain(&providerDB)
	}
	return result
}

func ToDomainCandidates(candidatesDB []CandidateDB) []entities.Candidate {
	if len(candidatesDB) == 0 {
		return []entities.Candidate{}
	}

	result := make([]entities.Candidate, len(candidatesDB))
	for i, candidateDB := range candidatesDB {
		result[i] = entities.Candidate{
			Provider:       *ToDomain(&candidateDB.Provider),
			DistanceMeters: candidateDB.DistanceMeters,
		}
	}
	return result
}
