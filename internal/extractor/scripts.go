package extractor

// Page scripts are evaluated inside the rendered document and return plain
// JSON values. Selectors are site-coupled, disposable detail; everything that
// must stay stable (dedup, pacing, ordering) lives outside these strings.

// collectPlaceLinksScript gathers unique place links from a maps search page,
// capped at the page level before the client cap applies.
const collectPlaceLinksScript = `
(function(){
  let anchors = Array.from(document.querySelectorAll('a[href*="/maps/place/"]'));
  let hrefs = [];
  anchors.forEach(a => { if (a.href && hrefs.indexOf(a.href) === -1) hrefs.push(a.href); });
  return hrefs.slice(0, 200);
})()`

// extractPlaceScript pulls the fields of a single rendered place page.
const extractPlaceScript = `
(function(){
  let name = document.querySelector("h1")?.innerText.trim() || "";
  let addr = document.querySelector("button[data-item-id='address'] div")?.innerText.trim() || "";
  let phone = document.querySelector("button[data-item-id^='phone'] div")?.innerText.trim() || "";
  let site = document.querySelector("a[data-item-id='authority']")?.href || "";
  return {name: name, address: addr, phone: phone, website: site};
})()`

// extractListingsScript pulls every listing from a rendered directory search
// page in one pass. Listings are deduplicated page-locally by visible name;
// items without a name are dropped before the batch is returned.
const extractListingsScript = `
(function() {
  function extractListingData(listing) {
    let name = "N/A";
    try {
      const nameElement = listing.querySelector("h2.resultbox_title, h3.resultbox_title, .resultbox_title_anchor, .complist_title");
      if (nameElement) name = nameElement.innerText.trim();
    } catch(e) {}
    if (!name || name === "N/A") return null;

    let address = "N/A";
    try {
      const addressSelectors = [
        ".resultbox_locat_icon + .locatcity",
        ".cont_fl_addr",
        ".add_icon_link",
        "address",
        ".resultbox_address div",
        ".locatcity"
      ];
      for (const selector of addressSelectors) {
        const element = listing.querySelector(selector);
        if (element && element.innerText.trim()) {
          address = element.innerText.trim();
          break;
        }
      }
    } catch(e) {}

    let phone = "N/A";
    try {
      const phoneElements = listing.querySelectorAll(".callcontent, .callNowAnchor, .greenfill_animate span");
      for (const element of phoneElements) {
        const text = element.innerText.trim();
        if (/^[\d\s\+\-\(\)]{10,}$/.test(text)) {
          phone = text;
          break;
        }
      }
      if (phone === "N/A") {
        const allElements = listing.querySelectorAll('*');
        for (const element of allElements) {
          const text = element.innerText.trim();
          if (/^[\d\s\+\-\(\)]{10,}$/.test(text) && text.length >= 10) {
            phone = text;
            break;
          }
        }
      }
    } catch(e) {}

    let website = "N/A";
    let website_status = "Unknown";
    try {
      const websiteElements = listing.querySelectorAll("a[href*='http']");
      for (const element of websiteElements) {
        const href = element.href;
        if (href && !href.includes('justdial') && !href.includes('tel:') &&
            !href.includes('mailto:') && !href.startsWith('javascript:')) {
          website = href;
          website_status = "Online";
          break;
        }
      }
    } catch(e) {}

    let rating = "N/A";
    try {
      const ratingElement = listing.querySelector(".resultbox_totalrate, .star_m, .green-box, .rating");
      if (ratingElement) rating = ratingElement.innerText.trim();
    } catch(e) {}

    let votes = "N/A";
    try {
      const votesElement = listing.querySelector(".resultbox_countrate, .rt_count, .votes, .review-count");
      if (votesElement) votes = votesElement.innerText.trim();
    } catch(e) {}

    return {
      name: name,
      address: address,
      phone: phone,
      website: website,
      website_status: website_status,
      rating: rating,
      votes: votes
    };
  }

  const listings = document.querySelectorAll("li.cntanr, div.resultbox, section.resultbox_listing");
  const results = [];
  const seenNames = new Set();
  for (const listing of listings) {
    const data = extractListingData(listing);
    if (data && data.name !== "N/A" && !seenNames.has(data.name)) {
      seenNames.add(data.name);
      results.push(data);
    }
  }
  return results;
})()`
