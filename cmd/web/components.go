package main

// component is one stop on the build path.
type component struct {
	Slug        string
	Title       string
	Summary     string
	Checks      []string
	Connections []string
}

// components is listed in the order a build usually comes together.
var components = []component{
	{
		Slug:    "case",
		Title:   "Computer Case",
		Summary: "The case houses and protects every other part. Its size and layout decide which motherboards, coolers and graphics cards will fit and how well air can move through the build.",
		Checks: []string{
			"Motherboard form factor support (ATX, Micro-ATX, Mini-ITX)",
			"Maximum GPU length and CPU cooler height",
			"Fan and radiator mounting positions",
		},
		Connections: []string{"power-supply", "case-fans", "motherboard", "cpu"},
	},
	{
		Slug:    "power-supply",
		Title:   "Power Supply",
		Summary: "The power supply unit turns wall AC into the DC rails your parts run on. Pick enough wattage for peak load with headroom, and an efficiency rating you can live with on the power bill.",
		Checks: []string{
			"Total system draw plus 20-30% headroom",
			"80 PLUS efficiency rating",
			"PCIe power connectors for your GPU",
		},
		Connections: []string{"case", "motherboard", "gpu", "storage"},
	},
	{
		Slug:    "case-fans",
		Title:   "Case Fans",
		Summary: "Case fans move air through the chassis. Intake and exhaust balance sets the pressure inside the case, which affects both temperatures and how much dust builds up.",
		Checks: []string{
			"Fan size supported by each mount (120mm, 140mm)",
			"Airflow versus static pressure designs",
			"Fan headers or a hub to power them",
		},
		Connections: []string{"case", "cpu-cooler"},
	},
	{
		Slug:    "motherboard",
		Title:   "Motherboard",
		Summary: "The motherboard connects everything. Its socket and chipset decide which CPUs it accepts, and its slots decide how much memory, storage and expansion the build can grow into.",
		Checks: []string{
			"CPU socket and chipset match your processor",
			"Supported RAM generation and speed",
			"M.2 slots, SATA ports and rear I/O",
		},
		Connections: []string{"case", "cpu", "ram", "gpu", "storage", "add-ons"},
	},
	{
		Slug:    "cpu",
		Title:   "CPU",
		Summary: "The processor executes the instructions your software issues. Core count helps with multitasking and rendering, while per-core speed matters most for games.",
		Checks: []string{
			"Socket compatibility with the motherboard",
			"Core and thread count for your workload",
			"Whether a cooler is included in the box",
		},
		Connections: []string{"motherboard", "cpu-cooler"},
	},
	{
		Slug:    "cpu-cooler",
		Title:   "CPU Cooler",
		Summary: "The CPU cooler carries heat away from the processor so it can hold its boost clocks. Air coolers use a heatsink and fan, liquid coolers move heat to a radiator.",
		Checks: []string{
			"Socket mounting hardware",
			"Height clearance in the case or radiator fit",
			"Rated TDP against your CPU's heat output",
		},
		Connections: []string{"cpu", "case-fans"},
	},
	{
		Slug:    "ram",
		Title:   "RAM",
		Summary: "Memory holds the data programs are actively using. More capacity means smoother multitasking, and faster kits help memory-sensitive games and applications.",
		Checks: []string{
			"DDR generation supported by the motherboard",
			"Capacity (16GB for most builds, 32GB+ for creators)",
			"Dual-channel kit in the recommended slots",
		},
		Connections: []string{"motherboard"},
	},
	{
		Slug:    "gpu",
		Title:   "GPU",
		Summary: "The graphics card renders everything you see. It is the single biggest factor in gaming performance and speeds up video editing and 3D work.",
		Checks: []string{
			"Card length and slot width against the case",
			"Power connectors and recommended PSU wattage",
			"VRAM for your target resolution",
		},
		Connections: []string{"motherboard", "power-supply"},
	},
	{
		Slug:    "storage",
		Title:   "Storage",
		Summary: "Drives hold the operating system, programs and files. A fast NVMe SSD keeps the system responsive, and a large HDD is still the cheapest way to keep bulk media.",
		Checks: []string{
			"NVMe M.2 versus SATA interfaces",
			"Capacity for OS, games and projects",
			"Available M.2 slots and drive bays",
		},
		Connections: []string{"motherboard", "power-supply"},
	},
	{
		Slug:    "add-ons",
		Title:   "Additional Components",
		Summary: "Add-ons give a build extra abilities: sound cards, Wi-Fi or network cards, capture cards, RGB controllers and front panel devices.",
		Checks: []string{
			"Free PCIe slots and lanes",
			"Internal USB and RGB headers",
			"Driver support for your operating system",
		},
		Connections: []string{"motherboard"},
	},
}

func componentBySlug(slug string) (component, bool) {
	for _, c := range components {
		if c.Slug == slug {
			return c, true
		}
	}
	return component{}, false
}

// neighbours returns the components before and after slug on the build path.
func neighbours(slug string) (prev, next *component) {
	for i := range components {
		if components[i].Slug != slug {
			continue
		}
		if i > 0 {
			prev = &components[i-1]
		}
		if i < len(components)-1 {
			next = &components[i+1]
		}
		return prev, next
	}
	return nil, nil
}
