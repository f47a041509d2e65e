package seed

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

// Data is the reference data a fresh shop starts with.
type Data struct {
	Users        []models.User
	Vehicles     []models.Vehicle
	Services     []models.Service
	Bays         []models.ServiceBay
	WorkingHours []models.WorkingHours
}

func hours(open, closeAt string) (*string, *string) {
	return &open, &closeAt
}

func service(name, description, price string, minutes int) models.Service {
	return models.Service{
		Name:            name,
		Description:     description,
		DurationMinutes: minutes,
		Price:           decimal.RequireFromString(price),
		IsActive:        true,
	}
}

// Default is a four bay shop open Mon-Fri 08:00-18:00 and Sat 09:00-15:00.
// User 1 is the admin, user 2 a demo customer owning vehicle 1.
func Default() Data {
	d := Data{
		Users: []models.User{
			{ID: 1, Name: "Admin User", Email: "admin@carservice.local", Role: "admin"},
			{ID: 2, Name: "Demo Customer", Email: "customer@carservice.local", Role: "customer"},
		},
		Vehicles: []models.Vehicle{
			{ID: 1, UserID: 2, Make: "Toyota", Model: "Camry", Year: 2019, LicensePlate: "DEMO-001"},
		},
		Bays: []models.ServiceBay{
			{Name: "Bay 1", Description: "General service bay", IsActive: true},
			{Name: "Bay 2", Description: "General service bay", IsActive: true},
			{Name: "Bay 3", Description: "Specialized for engine work", IsActive: true},
			{Name: "Bay 4", Description: "Tire and brake services", IsActive: true},
		},
		Services: []models.Service{
			service("Standard Oil Change", "Basic oil change with standard filter replacement", "49.99", 30),
			service("Synthetic Oil Change", "Premium synthetic oil change with high-performance filter", "79.99", 45),
			service("Oil Filter Replacement", "Replace oil filter only", "19.99", 15),
			service("Brake Pad Replacement", "Replace front or rear brake pads", "149.99", 90),
			service("Brake Rotor Replacement", "Replace front or rear brake rotors", "199.99", 120),
			service("Complete Brake Service", "Full brake system inspection and service", "299.99", 180),
			service("Brake Fluid Flush", "Complete brake fluid replacement", "89.99", 60),
			service("Tire Rotation", "Rotate all four tires for even wear", "39.99", 30),
			service("Wheel Alignment", "Computerized wheel alignment service", "99.99", 60),
			service("Tire Balancing", "Balance all four wheels", "59.99", 45),
			service("Engine Tune-Up", "Complete engine tune-up service", "199.99", 120),
			service("Engine Diagnostics", "Comprehensive engine diagnostic scan", "89.99", 60),
			service("Battery Replacement", "Replace car battery (battery not included)", "39.99", 30),
			service("Safety Inspection", "Complete vehicle safety inspection", "49.99", 45),
			service("Emissions Test", "State-required emissions testing", "39.99", 30),
		},
	}

	d.WorkingHours = append(d.WorkingHours, models.WorkingHours{DayOfWeek: 0, IsClosed: true})
	for day := 1; day <= 5; day++ {
		open, closeAt := hours("08:00:00", "18:00:00")
		d.WorkingHours = append(d.WorkingHours, models.WorkingHours{DayOfWeek: day, OpenTime: open, CloseTime: closeAt})
	}
	open, closeAt := hours("09:00:00", "15:00:00")
	d.WorkingHours = append(d.WorkingHours, models.WorkingHours{DayOfWeek: 6, OpenTime: open, CloseTime: closeAt})

	return d
}
